package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrInvalidSettings wraps every validation failure of rblint.toml.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the content of rblint.toml after environment overrides.
type Settings struct {
	// Path is the settings file, empty when none was found.
	Path string `toml:"-"`
	// Root is the directory of Path, else the project root, else the start
	// directory.
	Root  string        `toml:"-"`
	Run   RunSettings   `toml:"run"`
	Trace TraceSettings `toml:"trace"`
}

type RunSettings struct {
	Jobs        int    `toml:"jobs" validate:"gte=0,lte=1024"`
	Format      string `toml:"format" validate:"omitempty,oneof=progress simple text emacs clang json sarif github files quiet"`
	FailLevel   string `toml:"fail_level" validate:"omitempty,oneof=info refactor convention warning error fatal I R C W E F"`
	Cache       *bool  `toml:"cache"`
	CacheDir    string `toml:"cache_dir"`
	Autocorrect string `toml:"autocorrect" validate:"omitempty,oneof=off safe all"`
	// Config overrides .rubocop.yml discovery.
	Config string `toml:"config"`
}

type TraceSettings struct {
	Level  string `toml:"level" validate:"omitempty,oneof=off error phase detail debug"`
	Output string `toml:"output"`
}

// CacheEnabled reports the cache setting, defaulting to on.
func (s *Settings) CacheEnabled() bool {
	return s.Run.Cache == nil || *s.Run.Cache
}

var validate = validator.New()

// LoadSettings finds rblint.toml from startDir upward, loads the .env of
// the project root (see FindProjectRoot) (never overriding variables already set), applies RBLINT_*
// overrides and validates the result. A missing file yields defaults.
func LoadSettings(startDir string) (*Settings, error) {
	path, ok, err := FindSettings(startDir)
	if err != nil {
		return nil, err
	}
	s := &Settings{}
	if ok {
		if _, err := toml.DecodeFile(path, s); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		s.Path = path
		s.Root = filepath.Dir(path)
	} else if root, found, err := FindProjectRoot(startDir); err != nil {
		return nil, err
	} else if found {
		s.Root = root
	} else {
		abs, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", absErr)
		}
		s.Root = abs
	}

	envPath := filepath.Join(s.Root, ".env")
	if _, statErr := os.Stat(envPath); statErr == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("%s: %w", envPath, err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if v, ok := os.LookupEnv("RBLINT_JOBS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: RBLINT_JOBS: %w", ErrInvalidSettings, err)
		}
		s.Run.Jobs = n
	}
	if v, ok := os.LookupEnv("RBLINT_FORMAT"); ok && v != "" {
		s.Run.Format = v
	}
	if v, ok := os.LookupEnv("RBLINT_FAIL_LEVEL"); ok && v != "" {
		s.Run.FailLevel = v
	}
	if v, ok := os.LookupEnv("RBLINT_CACHE_DIR"); ok && v != "" {
		s.Run.CacheDir = v
	}
	if v, ok := os.LookupEnv("RBLINT_CACHE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: RBLINT_CACHE: %w", ErrInvalidSettings, err)
		}
		s.Run.Cache = &b
	}
	return nil
}

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s: failed %q (got %v)", ErrInvalidSettings, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}
