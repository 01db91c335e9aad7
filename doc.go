// Package casecontrol holds the file plumbing shared by the casecontrol tools:
// opening local or Google Storage paths, transparent decompression, and
// delimiter detection. The cohort logic itself lives in the subpackages.
package casecontrol
