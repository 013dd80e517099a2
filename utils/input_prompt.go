package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"snapmirror/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question on stdin. Only an explicit "y" or
// "yes" counts as confirmation; EOF and empty input decline.
func ConfirmPrompt(reader *bufio.Reader, question string) (bool, error) {
	fmt.Print(lipgloss.Info.Render(question + " (y/N): "))

	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
