package config

import "os"

func writeFile(name, content string) error {
	return os.WriteFile(name, []byte(content), 0o600)
}

func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}
