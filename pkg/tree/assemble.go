package tree

import (
	"errors"
	"sort"
	"strings"
)

// Assemble links the collected listings into a single tree rooted at root.
//
// listings maps a directory's path to the entries found in it; failures maps
// a directory's path to the reason its listing could not be read. Both must
// be complete: Assemble runs after every scan task has finished and does no
// locking of its own.
func Assemble(root PathEntry, listings map[string][]PathEntry, failures map[string]error) *PathEntry {
	r := root
	attach(&r, listings, failures)
	return &r
}

func attach(e *PathEntry, listings map[string][]PathEntry, failures map[string]error) {
	if e.Kind != Directory {
		return
	}

	if err, failed := failures[e.Path]; failed {
		e.Kind = Inaccessible
		if e.Note == "" {
			e.Note = noteFor(err)
		}
		e.Children = nil
		return
	}

	listed := listings[e.Path]
	e.Children = make([]*PathEntry, 0, len(listed))
	for i := range listed {
		child := listed[i]
		attach(&child, listings, failures)
		e.Children = append(e.Children, &child)
	}

	SortEntries(e.Children)
}

// noteFor prefers a short note from errors that offer one, since the
// entry's path is already shown beside it.
func noteFor(err error) string {
	var n interface{ Note() string }
	if errors.As(err, &n) {
		return n.Note()
	}
	return err.Error()
}

// SortEntries orders siblings for display: directories first, then by
// case-insensitive name, then by exact name so that names differing only in
// case still have a fixed order.
func SortEntries(entries []*PathEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Less reports whether a sorts before b among siblings.
func Less(a, b *PathEntry) bool {
	ad, bd := a.IsDirLike(), b.IsDirLike()
	if ad != bd {
		return ad
	}

	al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if al != bl {
		return al < bl
	}
	return a.Name < b.Name
}
