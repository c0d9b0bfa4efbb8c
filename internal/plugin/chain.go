package plugin

// Chain is an ordered sequence of plugins applied to every inbound frame.
type Chain struct {
	plugins []Plugin
}

// NewChain builds a Chain from plugins in the given order.
func NewChain(plugins []Plugin) *Chain {
	return &Chain{plugins: plugins}
}

// Apply runs every plugin in order against payload. If the chain's current
// value is a multi-element sequence, each plugin acts on the first element
// and its result replaces the first element; other elements pass through
// untouched. log is invoked with the acting plugin's own name
// as the tag for any events it emits.
func (c *Chain) Apply(log func(pluginName string, args ...any), payload []byte, state any) [][]byte {
	seq := [][]byte{payload}

	for _, p := range c.plugins {
		pluginLog := func(args ...any) {
			if log != nil {
				log(p.Name(), args...)
			}
		}

		result := p.HandleData(pluginLog, seq[0], state)
		if len(result) == 0 {
			result = [][]byte{{}}
		}

		next := make([][]byte, 0, len(seq)-1+len(result))
		next = append(next, result...)
		next = append(next, seq[1:]...)
		seq = next
	}

	return seq
}

// Len reports the number of plugins in the chain.
func (c *Chain) Len() int { return len(c.plugins) }
