package helpers

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"vigilo/internal/models"
)

var (
	// SuccessColor for successful operations
	SuccessColor = color.New(color.FgGreen, color.Bold)

	// ErrorColor for error messages
	ErrorColor = color.New(color.FgRed, color.Bold)

	// WarningColor for warning messages
	WarningColor = color.New(color.FgYellow, color.Bold)

	// InfoColor for informational messages
	InfoColor = color.New(color.FgCyan, color.Bold)

	// TitleColor for titles and headers
	TitleColor = color.New(color.FgMagenta, color.Bold)

	// StageColor for in-flight progress stages
	StageColor = color.New(color.FgBlue)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	SuccessColor.Printf("✅ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	ErrorColor.Printf("❌ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	WarningColor.Printf("⚠️  "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	InfoColor.Printf("ℹ️  "+format+"\n", args...)
}

// PrintTitle prints a title
func PrintTitle(format string, args ...interface{}) {
	TitleColor.Printf("🎯 "+format+"\n", args...)
}

// PrintStage prints a progress-stage line while an analysis is running.
// index is zero-based.
func PrintStage(index, total int, stage string) {
	StageColor.Printf("⏳ [%d/%d] %s\n", index+1, total, stage)
}

// PrintNotification prints a queued notification with kind-specific styling
func PrintNotification(n models.Notification) {
	switch n.Kind {
	case models.NotificationAlert:
		ErrorColor.Printf("🔔 %s\n", n.Message)
	default:
		SuccessColor.Printf("🔔 %s\n", n.Message)
	}
}

// UrgencyColor returns the color used to render an urgency level
func UrgencyColor(u models.Urgency) *color.Color {
	switch u {
	case models.UrgencyCritical:
		return ErrorColor
	case models.UrgencyHigh:
		return WarningColor
	default:
		return InfoColor
	}
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println(strings.Repeat("─", 80))
}

// IsTerminal checks if output is going to a terminal
func IsTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
