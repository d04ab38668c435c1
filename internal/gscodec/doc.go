// Package gscodec reads and writes the line-oriented grounded-task text
// format: a strictly ordered sequence of begin_.../end_... delimited
// sections, UTF-8, one field per line.
//
// Reading is single-pass and never peeks ahead; a missing, reordered, or
// miscounted delimiter is reported as a *ParseError* rather than attempting
// resynchronization. Writing is deterministic: the same *gstask.Task always
// produces byte-identical output.
package gscodec
