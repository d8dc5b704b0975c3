package config

import "os"

func IsDebug() bool {
	return os.Getenv("STUDYBUDDY_DEBUG") == "1"
}
