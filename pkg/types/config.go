// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gdoc-down/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" validate:"required"`

	// MaxRetries bounds the retries on rate limiting and server errors.
	// Zero selects the default.
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0,lte=10"`
}

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// AccessToken is the OAuth 2.0 bearer token sent to the Drive API.
	AccessToken string `json:"-" yaml:"-" validate:"required"`

	// Format is the requested output format (docx, html, odt, pdf, rtf, tex, txt, ...).
	Format string `json:"format" yaml:"format" validate:"required"`

	// OutPath is an existing directory or the output file path.
	OutPath string `json:"out_path" yaml:"out_path" validate:"required"`

	// Extension overrides the output file extension. Only valid when OutPath
	// is a directory.
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty" validate:"omitempty,excludesall=/\\"`

	// DownloadDelay is the delay between consecutive documents (default 0).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" validate:"gte=0"`
}

// ConversionConfig holds settings for converting local HTML exports to LaTeX.
type ConversionConfig struct {
	// OutDir is the directory for .tex output. Empty means next to each input.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Force overwrites existing .tex files instead of skipping them.
	Force bool `json:"force" yaml:"force"`
}

// HistoryConfig holds settings for the download history database.
type HistoryConfig struct {
	// Dir is the directory that holds history.db.
	Dir string `json:"dir" yaml:"dir" validate:"required"`

	// MaxResults is the default number of records listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" validate:"gte=0"`
}

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its field constraints.
func Validate(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s must be %s %s (got %v)", fe.Field(), comparison(fe.Tag()), fe.Param(), fe.Value())
	case "excludesall":
		return fmt.Sprintf("%s must not contain path separators", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

func comparison(tag string) string {
	switch tag {
	case "gt":
		return ">"
	case "gte":
		return ">="
	default:
		return "<="
	}
}
