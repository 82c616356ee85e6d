package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// InputUtils reads answers to interactive prompts.
type InputUtils struct {
	In  io.Reader
	Out io.Writer
}

func NewInputUtils() *InputUtils {
	return &InputUtils{In: os.Stdin, Out: os.Stdout}
}

// GetUserChoice prompts user for choice from valid options. With force set,
// or when input runs out, the first option wins.
func (i *InputUtils) GetUserChoice(validOptions []string, prompt string, force bool) string {
	if force {
		return validOptions[0]
	}

	reader := bufio.NewReader(i.In)
	for {
		fmt.Fprintf(i.Out, "%s (%s): ", prompt, strings.Join(validOptions, "/"))
		input, err := reader.ReadString('\n')
		choice := strings.TrimSpace(strings.ToLower(input))

		for _, option := range validOptions {
			if choice == option {
				return choice
			}
		}
		if err != nil {
			return validOptions[0]
		}
		fmt.Fprintf(i.Out, "Invalid option. Please choose from: %s\n", strings.Join(validOptions, ", "))
	}
}

// AskConfirmation asks user for yes/no confirmation
func (i *InputUtils) AskConfirmation(message string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(i.Out, "%s (y/N): ", message)
	response, _ := bufio.NewReader(i.In).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
