// Package git checks whether decrypted output is about to land somewhere
// git would pick it up.
//
// Checks performed on the output path:
//   - whether the working directory is a git repository
//   - whether the file is tracked by git (plaintext would be committed)
//   - whether the file is ignored by .gitignore (safe)
package git
