package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osse101/reelflow/internal/gameserver"
	"github.com/osse101/reelflow/internal/session"
	"github.com/osse101/reelflow/internal/validation"
)

//go:embed profiles/*.yaml schemas/*.json
var bundled embed.FS

// ProfileSchemaPath locates the profile schema inside the bundled files.
const ProfileSchemaPath = "schemas/profile.schema.json"

var profileSchema = validation.NewSchemaValidator(bundled)

// Profile describes one game: the client session tuning and the simulated server.
type Profile struct {
	Name    string            `yaml:"name" validate:"required"`
	Session session.Config    `yaml:"session"`
	Server  gameserver.Config `yaml:"server"`
}

// DefaultProfile returns the built-in five by three game without reading any file.
func DefaultProfile() Profile {
	return Profile{
		Name:    DefaultProfileName,
		Session: session.DefaultConfig(),
		Server:  gameserver.DefaultConfig(),
	}
}

var validate = validator.New()

// Validate checks the profile and that client and server agree on the grid.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}
	if err := p.Session.Machine.Validate(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}
	if err := p.Server.Validate(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}
	m, s := p.Session.Machine, p.Server
	if m.Reels != s.Reels || m.Rows != s.Rows {
		return fmt.Errorf("invalid profile %q: machine is %dx%d but server is %dx%d", p.Name, m.Reels, m.Rows, s.Reels, s.Rows)
	}
	return nil
}

// LoadProfile resolves ref as a file on disk, then as a bundled profile name.
// An empty ref selects the default bundled profile. Fields the YAML omits keep
// their defaults.
func LoadProfile(ref string) (Profile, error) {
	if ref == "" {
		ref = DefaultProfileName
	}

	data, err := os.ReadFile(ref)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = bundled.ReadFile(path.Join("profiles", strings.TrimSuffix(ref, ".yaml")+".yaml"))
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fmt.Errorf("unknown game profile %q (bundled: %s)", ref, strings.Join(ProfileNames(), ", "))
		}
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read game profile %q: %w", ref, err)
	}

	return ParseProfile(data)
}

// ParseProfile checks a YAML profile against the profile schema, decodes it
// over the defaults and validates the result.
func ParseProfile(data []byte) (Profile, error) {
	if err := profileSchema.ValidateYAML(data, ProfileSchemaPath); err != nil {
		return Profile{}, fmt.Errorf("invalid game profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse game profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// ProfileNames lists the bundled profiles.
func ProfileNames() []string {
	entries, err := bundled.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
