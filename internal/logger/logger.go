// Package logger provides the colored console output used across the
// server. Every line carries a level marker and a short uppercase tag so
// the terminal stays scannable while tickers are running.
package logger

import (
	"fmt"
	"time"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, level, tag, msg string) {
	fmt.Printf("%s%s%s %s%-5s%s %s[%s]%s %s\n",
		dim, stamp(), reset,
		color, level, reset,
		bold, tag, reset,
		msg)
}

// Info logs a neutral progress message.
func Info(tag, msg string) {
	line(blue, "INFO", tag, msg)
}

// Success logs a completed action.
func Success(tag, msg string) {
	line(green, "OK", tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(yellow, "WARN", tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(red, "ERROR", tag, msg)
}

// Banner prints the startup header with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println()
	fmt.Printf("%s%s  ╔══════════════════════════════════════╗%s\n", bold, cyan, reset)
	fmt.Printf("%s%s  ║        MIDNIGHT GARAGE  %-12s ║%s\n", bold, cyan, version, reset)
	fmt.Printf("%s%s  ╚══════════════════════════════════════╝%s\n", bold, cyan, reset)
	fmt.Println()
}

// Section prints a named divider between startup phases.
func Section(name string) {
	fmt.Printf("\n%s%s── %s %s%s\n", bold, cyan, name, "──────────────────────", reset)
}

// Stats prints an aligned key/value pair under the current section.
func Stats(key string, value interface{}) {
	fmt.Printf("   %s%-24s%s %v\n", dim, key, reset, value)
}

// Server announces the listen address once the HTTP server is up.
func Server(addr string) {
	fmt.Printf("\n%s%s  ➜  listening on http://%s%s\n\n", bold, green, addr, reset)
}
