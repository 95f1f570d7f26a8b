package encoding

import (
	"strconv"
	"strings"

	"hevcpress/internal/config"
)

// BuildArguments expands the encoder argument template. Placeholders may
// appear as whole arguments or embedded in a larger argument.
func BuildArguments(template []string, input, output string, quality int) []string {
	replacer := strings.NewReplacer(
		config.PlaceholderInput, input,
		config.PlaceholderOutput, output,
		config.PlaceholderQuality, strconv.Itoa(quality),
	)
	args := make([]string, 0, len(template))
	for _, arg := range template {
		args = append(args, replacer.Replace(arg))
	}
	return args
}

// CommandLine renders binary and args as a shell-like string for logs.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t\"'\\$") {
		return arg
	}
	return strconv.Quote(arg)
}
