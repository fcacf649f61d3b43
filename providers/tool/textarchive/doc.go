// Package textarchive provides a tool for downloading publicly accessible
// text documents (Project Gutenberg style plain-text ebooks) and truncating
// them to a character budget, ready to be injected as a large cached system
// segment. The main entry points are [Fetch] for direct use and
// [NewTextArchiveTool] for registration as a model-callable tool.
package textarchive
