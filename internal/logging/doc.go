// Package logging builds the slog loggers used by hevcpress.
//
// A run logs to stdout and to a process log file under log_dir, and each
// processed source file additionally gets its own log under log_dir/items.
// Console output renders a one-line header ("[component] File #2 name (phase)")
// followed by indented detail fields; JSON output keeps every attribute flat.
// Helpers here tag records with run and file identity, enforce the
// event_type/error_hint/impact triple on warnings, and prune logs that have
// outlived the configured retention.
package logging
