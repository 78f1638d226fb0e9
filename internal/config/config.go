// Package config resolves analysis defaults from an optional .env file and
// the process environment. Command-line flags override whatever it returns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"meshwidth/core/profile"
	"meshwidth/core/sample"
	"meshwidth/core/tally"
)

// Environment keys.
const (
	EnvScale       = "MESHWIDTH_SCALE"
	EnvSampleSize  = "MESHWIDTH_SAMPLE_SIZE"
	EnvThresholds  = "MESHWIDTH_THRESHOLDS"
	EnvSeed        = "MESHWIDTH_SEED"
	EnvThreads     = "MESHWIDTH_THREADS"
	EnvSampleOrder = "MESHWIDTH_SAMPLE_ORDER"
)

// DefaultEnvFile is read when present; a missing file is not an error.
const DefaultEnvFile = ".env"

// Defaults are the starting values of the adjustable parameters.
type Defaults struct {
	Scale       float64
	SampleSize  int
	Thresholds  []float64
	Seed        uint64
	Threads     int
	SampleOrder string
}

// Builtin returns the reference analysis parameters.
func Builtin() Defaults {
	return Defaults{
		Scale:       profile.DefaultScale,
		SampleSize:  sample.DefaultSize,
		Thresholds:  append([]float64(nil), tally.DefaultThresholds...),
		SampleOrder: "parsed",
	}
}

// Load reads envFile (or DefaultEnvFile when empty) and layers the process
// environment on top; variables already set in the environment win, as with
// godotenv.Load. An explicitly named file must exist.
func Load(envFile string) (Defaults, error) {
	env := map[string]string{}
	name := envFile
	if name == "" {
		name = DefaultEnvFile
	}
	fileEnv, err := godotenv.Read(name)
	switch {
	case err == nil:
		for k, v := range fileEnv {
			env[k] = v
		}
	case envFile == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return Defaults{}, fmt.Errorf("env file %s: %w", name, err)
	}
	for _, k := range []string{EnvScale, EnvSampleSize, EnvThresholds, EnvSeed, EnvThreads, EnvSampleOrder} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return FromMap(env)
}

// FromMap applies the MESHWIDTH_* entries of env to Builtin().
func FromMap(env map[string]string) (Defaults, error) {
	d := Builtin()
	var err error
	if v := strings.TrimSpace(env[EnvScale]); v != "" {
		if d.Scale, err = strconv.ParseFloat(v, 64); err != nil || !(d.Scale > 0) {
			return d, fmt.Errorf("%s=%q: want a positive number", EnvScale, v)
		}
	}
	if v := strings.TrimSpace(env[EnvSampleSize]); v != "" {
		if d.SampleSize, err = strconv.Atoi(v); err != nil || d.SampleSize < 1 {
			return d, fmt.Errorf("%s=%q: want an integer ≥ 1", EnvSampleSize, v)
		}
	}
	if v := strings.TrimSpace(env[EnvThresholds]); v != "" {
		if d.Thresholds, err = ParseFloatList(v); err != nil {
			return d, fmt.Errorf("%s: %w", EnvThresholds, err)
		}
	}
	if v := strings.TrimSpace(env[EnvSeed]); v != "" {
		if d.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return d, fmt.Errorf("%s=%q: want an unsigned integer", EnvSeed, v)
		}
	}
	if v := strings.TrimSpace(env[EnvThreads]); v != "" {
		if d.Threads, err = strconv.Atoi(v); err != nil || d.Threads < 0 {
			return d, fmt.Errorf("%s=%q: want an integer ≥ 0", EnvThreads, v)
		}
	}
	if v := strings.TrimSpace(env[EnvSampleOrder]); v != "" {
		d.SampleOrder = v
	}
	return d, nil
}

// ParseFloatList parses "0.95, 1.2,1.4" into numbers. Empty items are
// rejected.
func ParseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty value in list %q", s)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatFloatList is the inverse of ParseFloatList.
func FormatFloatList(vs []float64) string {
	ss := make([]string, len(vs))
	for i, v := range vs {
		ss[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(ss, ",")
}
