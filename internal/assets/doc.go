// Package assets copies static asset trees into the output root, minifies
// their scripts and stylesheets in place, and resets output directories.
//
// Directory traversal uses explicit stacks so deep trees never grow the call
// stack.
package assets
