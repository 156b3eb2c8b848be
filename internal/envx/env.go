// Package envx reads configuration overrides from the process environment,
// optionally seeded from a .env file.
package envx

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// String overwrites *dst with the value of key when the variable is set and non-empty.
func String(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

// Int overwrites *dst with the integer value of key. Unparsable values are
// reported as an error and leave *dst untouched.
func Int(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return &Error{Key: key, Err: err}
	}
	*dst = n
	return nil
}

// Bool overwrites *dst with the boolean value of key.
func Bool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return &Error{Key: key, Err: err}
	}
	*dst = b
	return nil
}

// Duration overwrites *dst with a Go duration string ("5s") from key.
func Duration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return &Error{Key: key, Err: err}
	}
	*dst = d
	return nil
}

// List overwrites *dst with the comma-separated values of key.
func List(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

// Error reports a malformed environment value.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	return "env " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
