package util

import (
	"os"

	"github.com/clbanning/mxj"
)

// ToDict converts an arbitrary DCP descriptor XML file into a generic
// map[string]interface{}, the same dict-of-dicts shape the "dict" report
// render form (§6 Report) exposes for tooling that wants to walk raw
// descriptor content without a typed Go struct for every element.
func ToDict(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}(m), nil
}

// DigPath walks a dotted path ("CompositionPlaylist.ContentTitleText")
// through a nested dict, returning nil if any segment is absent. This is
// the recursive dict-helper C1 names for code that still wants to reach
// into a raw descriptor dump (e.g. report rendering, debugging) without
// the typed model.
func DigPath(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, p := range path {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = mm[p]
		if !ok {
			return nil
		}
	}
	return cur
}
