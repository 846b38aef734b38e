package authz

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode represents an enforcement mode.
type Mode string

const (
	// ModeDisabled grants every capability.
	ModeDisabled Mode = "disabled"
	// ModeShadow logs denials but grants the capability.
	ModeShadow  Mode = "shadow"
	ModeEnforce Mode = "enforce"
)

// ParseMode accepts disabled, shadow or enforce in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDisabled, ModeShadow, ModeEnforce:
		return m, nil
	default:
		return "", fmt.Errorf("authz: unknown mode %q", s)
	}
}

func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseMode(node.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Flags is the enforcement setup: a global mode plus per-capability overrides,
// e.g. shadowing miq_request_admin while approvals stay enforced.
type Flags struct {
	Mode         Mode            `yaml:"mode"`
	Capabilities map[string]Mode `yaml:"capabilities"`
}

// ModeFor returns the override for capability, falling back to the global mode.
func (f Flags) ModeFor(capability string) Mode {
	if m, ok := f.Capabilities[capability]; ok {
		return m
	}
	return f.Mode
}

// FlagProvider supplies the current flags.
type FlagProvider interface {
	Flags() Flags
}

type staticFlags Flags

// NewStaticFlagProvider always reports mode with no overrides.
func NewStaticFlagProvider(mode Mode) FlagProvider {
	if _, err := ParseMode(string(mode)); err != nil {
		mode = ModeEnforce
	}
	return staticFlags{Mode: mode}
}

func (s staticFlags) Flags() Flags {
	return Flags(s)
}

// FileFlagProvider reads flags from a YAML file and re-parses it whenever its
// modification time changes. A missing or broken file keeps the last good flags.
type FileFlagProvider struct {
	path     string
	fallback Mode

	mu      sync.Mutex
	modTime time.Time
	current *Flags
}

func NewFileFlagProvider(path string, fallback Mode) *FileFlagProvider {
	if _, err := ParseMode(string(fallback)); err != nil {
		fallback = ModeEnforce
	}
	return &FileFlagProvider{path: path, fallback: fallback}
}

func (p *FileFlagProvider) Flags() Flags {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		return p.lastGood()
	}
	if p.current != nil && info.ModTime().Equal(p.modTime) {
		return *p.current
	}

	flags, err := p.read()
	if err != nil {
		return p.lastGood()
	}
	p.current = &flags
	p.modTime = info.ModTime()
	return flags
}

func (p *FileFlagProvider) read() (Flags, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Flags{}, err
	}
	var flags Flags
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return Flags{}, fmt.Errorf("authz: parse %s: %w", p.path, err)
	}
	if flags.Mode == "" {
		flags.Mode = p.fallback
	}
	return flags, nil
}

func (p *FileFlagProvider) lastGood() Flags {
	if p.current != nil {
		return *p.current
	}
	return Flags{Mode: p.fallback}
}
