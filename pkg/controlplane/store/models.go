package store

// LogEvent is one persisted logging record. ArgsJSON
// holds the already-redacted, JSON-encoded argument sequence.
type LogEvent struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	TSUnix    int64  `gorm:"column:ts_unix;not null;index"`
	TSISO     string `gorm:"column:ts_iso;not null"`
	Tag       string `gorm:"not null;index:idx_logs_tag_ts,priority:1"`
	Origin    string `gorm:"not null"`
	Session   *uint8 `gorm:"index:idx_logs_session_ts,priority:1"`
	ArgsJSON  string `gorm:"column:args_json;not null"`
}

// TableName pins the GORM table name to the name the admin tooling expects.
func (LogEvent) TableName() string { return "logs" }

// RawPayload is the original, unredacted bytes for a LogEvent, kept only
// when redaction is enabled so the APDU Indexer can still see them.
type RawPayload struct {
	LogID   int64  `gorm:"column:log_id;primaryKey"`
	Payload []byte `gorm:"not null"`
}

func (RawPayload) TableName() string { return "payloads" }

// ApduEvent is a derived analytic row produced by the APDU Indexer.
type ApduEvent struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	TSUnix   int64   `gorm:"column:ts_unix;not null;index"`
	Direction string `gorm:"not null"` // 'R' or 'C'
	ClaIns   *string `gorm:"column:cla_ins"`
	Header4  *string `gorm:"column:header4"`
	SW       *string `gorm:"column:sw"`
	ApduLen  int     `gorm:"column:apdu_len;not null"`
	Origin   string  `gorm:"not null"`
	Tag      string  `gorm:"not null"`
	Session  *uint8  `gorm:"index:idx_apdu_session_ts,priority:1"`
}

func (ApduEvent) TableName() string { return "apdu_events" }

// AdminUser is an administrator account.
type AdminUser struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Username    string `gorm:"uniqueIndex;not null"`
	PwSalt      []byte `gorm:"column:pw_salt;not null"`
	PwHash      []byte `gorm:"column:pw_hash;not null"`
	PwIters     int    `gorm:"column:pw_iters;not null"`
	CreatedUnix int64  `gorm:"column:created_unix;not null"`
	Disabled    bool   `gorm:"not null;default:false"`
}

func (AdminUser) TableName() string { return "admin_users" }

// AdminToken is a bearer credential. TokenHash is the SHA-256 hash of the
// opaque token string; the token itself is never persisted.
type AdminToken struct {
	TokenHash   []byte `gorm:"column:token_hash;primaryKey"`
	UserID      int64  `gorm:"column:user_id;not null;index"`
	CreatedUnix int64  `gorm:"column:created_unix;not null"`
	ExpiresUnix int64  `gorm:"column:expires_unix;not null"`
}

func (AdminToken) TableName() string { return "admin_tokens" }

// AllModels lists every model AutoMigrate must know about. Migration is
// idempotent: running it against a store that already has these tables is a
// no-op, and running it against an older schema upgrades it in place.
func AllModels() []any {
	return []any{
		&LogEvent{},
		&RawPayload{},
		&ApduEvent{},
		&AdminUser{},
		&AdminToken{},
	}
}
