package main

import (
	"reflect"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"simple", "clang++ -c foo.cpp", []string{"clang++", "-c", "foo.cpp"}},
		{"quoted arg", `clang++ -DNAME="a b" foo.cpp`, []string{"clang++", "-DNAME=a b", "foo.cpp"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCommand(tt.command)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitCommand(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}
