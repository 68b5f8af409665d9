// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Command pdfdump reads one or more input paths, prints each document's
// PDF version, optionally dumps the object tree to a configurable depth,
// and lists warnings (deduped with counts, or in full with -v). Multiple
// paths are parsed concurrently under a weighted-semaphore cap; output
// ordering matches input ordering.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/semaphore"

	pdfgraph "github.com/sassoftware/pdfgraph"
	"github.com/sassoftware/pdfgraph/engine"
	"github.com/sassoftware/pdfgraph/logger"
	"github.com/sassoftware/pdfgraph/tracer"
)

func main() {
	var (
		maxDepth    = flag.Int("depth", 2, "max object-tree dump depth (0 disables the dump)")
		verbose     = flag.Bool("v", false, "list every warning instead of deduped counts")
		strict      = flag.Bool("strict", false, "abort on the first warning")
		concurrency = flag.Int("j", 4, "max PDFs processed concurrently")
		structure   = flag.Bool("structure", false, "also run the document structuralizer and print the page count")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pdfdump [flags] path [path...]")
		os.Exit(2)
	}

	logger.SetLogger(func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		if *verbose {
			fmt.Fprintln(os.Stderr, level, msg, keyvals)
		}
	})

	mode := pdfgraph.BestEffort
	if *strict {
		mode = pdfgraph.Strict
	}
	opts := engine.Options{
		Parser:        pdfgraph.Options{Mode: mode},
		Structuralize: *structure,
	}

	sem := semaphore.NewWeighted(int64(*concurrency))
	ctx := context.Background()
	results := make([]string, len(paths))

	done := make(chan int, len(paths))
	for i, path := range paths {
		i, path := i, path
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = fmt.Sprintf("%s: %v", path, err)
			done <- i
			continue
		}
		go func() {
			defer sem.Release(1)
			results[i] = dumpOne(path, opts, *maxDepth, *verbose)
			done <- i
		}()
	}
	for range paths {
		<-done
	}
	for _, r := range results {
		fmt.Println(r)
	}
	tracer.Flush()
}

func dumpOne(path string, opts engine.Options, maxDepth int, verbose bool) string {
	doc, err := engine.LoadDocumentFromFile(path, opts)
	if err != nil {
		return fmt.Sprintf("%s: FAILED: %v", path, err)
	}

	out := fmt.Sprintf("%s: PDF version %s", path, doc.Store.PDFVersion)
	if doc.Structure != nil {
		out += fmt.Sprintf(", %d page(s)", len(doc.Structure.Pages))
	}
	out += "\n" + warningSummary(doc.ParserWarnings, verbose)
	if maxDepth > 0 {
		out += dumpTree(doc.Store, doc.Store.RootObject(), 0, maxDepth)
	}
	return out
}

func warningSummary(warnings []pdfgraph.Warning, verbose bool) string {
	if len(warnings) == 0 {
		return "  no warnings\n"
	}
	if verbose {
		s := ""
		for _, w := range warnings {
			s += "  " + w.Error() + "\n"
		}
		return s
	}
	counts := make(map[string]int)
	for _, w := range warnings {
		counts[w.Code]++
	}
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	s := ""
	for _, c := range codes {
		s += fmt.Sprintf("  %s: %d\n", c, counts[c])
	}
	return s
}

func dumpTree(store *pdfgraph.Store, obj *pdfgraph.Object, depth, maxDepth int) string {
	if obj == nil || depth > maxDepth {
		return ""
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	out := fmt.Sprintf("%s- %s\n", indent, obj.Kind)
	for _, child := range pdfgraph.ArrayItems(obj) {
		out += dumpTree(store, store.Get(child), depth+1, maxDepth)
	}
	switch obj.Kind {
	case pdfgraph.KindDictionary:
		for _, key := range obj.DictVal.Keys() {
			if v, ok := obj.DictVal.Get(key); ok {
				out += fmt.Sprintf("%s  /%s:\n", indent, key)
				out += dumpTree(store, store.Get(v), depth+2, maxDepth)
			}
		}
	case pdfgraph.KindIndirect:
		out += dumpTree(store, store.Get(obj.Direct), depth+1, maxDepth)
	case pdfgraph.KindStream:
		out += dumpTree(store, store.Get(obj.StreamDict), depth+1, maxDepth)
		out += dumpTree(store, store.Get(obj.StreamDirect), depth+1, maxDepth)
	}
	return out
}
