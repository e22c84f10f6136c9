package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

const timeLayout = time.DateTime

// outputWriter returns stdout, or the named file when path is set. The
// returned function closes the file.
func outputWriter(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func tableIDs(names []string) []report.TableID {
	if len(names) == 0 {
		return nil
	}
	ids := make([]report.TableID, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			ids = append(ids, report.TableID(n))
		}
	}
	return ids
}

func percent(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}
