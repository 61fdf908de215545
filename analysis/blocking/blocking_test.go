package blocking_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/stealthrocket/resumable/analysis/blocking"
)

func TestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), blocking.Analyzer, "a")
}
