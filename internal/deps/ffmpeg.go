package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Version runs "<command> -version" and returns the first line of output,
// e.g. "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers".
func Version(ctx context.Context, command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("version: command not configured")
	}
	versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(versionCtx, command, "-version").Output() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", command, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%s -version: no output", command)
}

// HasEncoder reports whether the ffmpeg at command lists encoder among
// "-encoders". Encoders such as hevc_nvenc are compiled in optionally.
func HasEncoder(ctx context.Context, command, encoder string) (bool, error) {
	versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(versionCtx, command, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		return false, fmt.Errorf("%s -encoders: %w", command, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == encoder {
			return true, nil
		}
	}
	return false, nil
}
