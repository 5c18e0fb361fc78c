// Package streaming implements the paginated iterator used to traverse
// large Checkmk collections (host lists, service lists) in constant memory,
// fetching one page at a time and stopping as soon as the consumer stops
// asking for more.
package streaming
