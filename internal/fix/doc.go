// Package fix applies automatic rewrites attached to diagnostics.
//
// Apply is pure: bytes and diagnostics in, bytes and a report out. It never
// touches the filesystem; callers own reading, previewing and writing. The
// engine enforces the safety policy mechanically: FixUnsafe fixes are never
// applied regardless of what tier the caller requests, and every edit must
// still match its recorded OldText before it lands.
package fix
