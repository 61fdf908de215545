// Command rflint reports blocking operations in resumable bodies.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/stealthrocket/resumable/analysis/blocking"
)

func main() { singlechecker.Main(blocking.Analyzer) }
