// Package deps checks that the external programs hevcpress drives are
// installed and reports their versions.
package deps
