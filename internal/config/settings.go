package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	liberrors "github.com/handiism/book-library/internal/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "files/config.toml"

// Settings holds all configuration options.
type Settings struct {
	// Library file loaded at start-up and written on save.
	LibraryPath string `toml:"library_path" validate:"required"`

	// Files read by the import command, merged in order.
	ImportPaths []string `toml:"import_paths" validate:"required,min=1,dive,required"`

	// Help text shown by the help command.
	HelpPath string `toml:"help_path" validate:"required"`

	Log LogSettings `toml:"log"`
}

// LogSettings controls diagnostic logging.
type LogSettings struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
	// File receives log output when set; otherwise logs go to stderr.
	File string `toml:"file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		LibraryPath: filepath.Join("files", "lib.txt"),
		ImportPaths: []string{filepath.Join("files", "books.txt")},
		HelpPath:    filepath.Join("files", "help.txt"),
		Log: LogSettings{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads settings from a TOML file over the defaults and validates them.
// A missing file yields the defaults. An empty path means DefaultPath.
func Load(path string) (*Settings, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	settings := DefaultSettings()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	case err != nil:
		return nil, liberrors.IO("open config", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(settings); err != nil {
			return nil, liberrors.Validation("parse config").WithCause(err)
		}
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks every field and reports all failures at once as a
// validation error whose details are keyed by TOML field path.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fieldPath(fe)] = friendlyMessage(fe)
		}
		return liberrors.ValidationWithDetails("invalid configuration", details)
	}
	return nil
}

// LockPath returns the session lock file guarding LibraryPath.
func (s *Settings) LockPath() string {
	return s.LibraryPath + ".lock"
}

func (s *Settings) normalize() {
	s.LibraryPath = strings.TrimSpace(s.LibraryPath)
	s.HelpPath = strings.TrimSpace(s.HelpPath)
	for i, p := range s.ImportPaths {
		s.ImportPaths[i] = strings.TrimSpace(p)
	}
	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	s.Log.Format = strings.ToLower(strings.TrimSpace(s.Log.Format))
	s.Log.File = strings.TrimSpace(s.Log.File)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report TOML key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldPath turns "Settings.log.level" into "log.level".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
