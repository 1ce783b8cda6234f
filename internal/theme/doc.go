// Package theme provides CSS theming for the joodock popup. Themes are
// looked up in the user themes directory first, then in the bundled set.
package theme
