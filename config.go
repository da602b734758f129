package httphook

// Config is the declarative form of a hook's exclusion rules.  It is meant to be
// unmarshaled from a configuration file.  Observers cannot be described this way,
// so they are always registered in code.
type Config struct {
	// Exclude lists paths that are never observed, compared exactly.
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`

	// ExcludeRegex lists regular expressions for paths that are never observed.
	ExcludeRegex []string `json:"excludeRegex" yaml:"excludeRegex" toml:"excludeRegex"`
}

// Apply adds the rules in cfg to this builder.  Invalid patterns are reported by Build.
func (b *Builder) Apply(cfg Config) *Builder {
	return b.Exclude(cfg.Exclude...).ExcludeRegex(cfg.ExcludeRegex...)
}
