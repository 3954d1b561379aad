// Package labels derives presentable archive directory names from disc
// volume labels and source paths.
package labels
