// Package ghosler holds the on-disk knowledge about a Ghosler instance:
// directory layout, the package manifest, and the production
// configuration document.
//
// Ownership boundary:
// - instance directory layout names
//
// - manifest (package.json) reads
//
// - configuration candidate resolution, identity rewrites, and the
//   legacy/nested layout seam
package ghosler
