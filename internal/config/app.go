package config

import "os"

func Addr() string {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		return addr
	}
	return ":8080"
}

func LogDir() string {
	if dir, ok := os.LookupEnv("APP_LOG_DIR"); ok {
		return dir
	}
	return "logs"
}
