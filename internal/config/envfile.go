package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// LoadEnvFile loads KEY=VALUE lines from path into the process environment.
// Existing variables are not overridden. A missing file is not an error.
func LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// WriteEnvFile updates path in .env format with the supplied variables of c.
// Lines for variables Config does not own, such as private keys, comments and
// blank lines, are kept in place. Owned variables already in the file are
// rewritten where they stand; the rest are appended. Defaults are written only
// when they differ from Default.
func WriteEnvFile(path string, c *Config) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read env file: %w", err)
	}

	values := make(map[string]string)
	defaults := Default()
	for _, v := range envVars {
		val := *v.field(c)
		if val == "" {
			continue
		}
		if c.Supplied(v.name) || val != *v.field(defaults) {
			values[v.name] = val
		}
	}

	var buf bytes.Buffer
	written := make(map[string]bool, len(values))
	scanner := bufio.NewScanner(bytes.NewReader(existing))
	for scanner.Scan() {
		line := scanner.Text()
		if key, ok := envLineKey(line); ok {
			if val, owned := values[key]; owned {
				line = key + "=" + val
				written[key] = true
			}
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}

	for _, v := range envVars {
		val, ok := values[v.name]
		if !ok || written[v.name] {
			continue
		}
		fmt.Fprintf(&buf, "%s=%s\n", v.name, val)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}

// envLineKey returns the variable name of a KEY=VALUE line.
func envLineKey(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(key), true
}
