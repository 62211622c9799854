/*
Package sector provides exact in-memory spatial search for Go.

Sector indexes a fixed-dimension point set and answers nearest-neighbor,
k-nearest-neighbor and radius queries with exact results. The workhorse is a
balanced k-d tree built by recursive median partitioning; a brute-force flat
index with the same API serves small or high-dimensional workloads and acts
as a ground-truth oracle.

# Overview

Indexes are static snapshots: Build consumes the whole point set at once and
every query returns indices into that snapshot. To change the contents,
rebuild. This makes the data model trivial to reason about - no tombstones,
no compaction, no partially visible updates.

# Quick Start

Create a k-d tree index and search it:

	package main

	import (
	    "fmt"
	    "log"

	    "github.com/sectorlabs/sector"
	)

	func main() {
	    // Create an index for 2-dimensional points using Euclidean distance
	    index, err := sector.NewKDTreeIndex(2, sector.Euclidean)
	    if err != nil {
	        log.Fatal(err)
	    }

	    // Index a snapshot of points
	    points := [][]float32{{0, 0}, {1, 1}, {2, 2}, {5, 5}}
	    if err := index.Build(points); err != nil {
	        log.Fatal(err)
	    }

	    // Single nearest neighbor
	    nearest, dist, err := index.NearestNeighbor([]float32{1.1, 1.1})
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Printf("nearest=%d dist=%.4f\n", nearest, dist)

	    // k nearest neighbors, ascending by distance
	    results, err := index.NewSearch().
	        WithQuery([]float32{0, 0}).
	        WithK(2).
	        Execute()
	    if err != nil {
	        log.Fatal(err)
	    }
	    for _, r := range results {
	        fmt.Printf("index=%d dist=%.4f\n", r.Index, r.Distance)
	    }

	    // Everything strictly within radius 3
	    within, err := index.NewSearch().
	        WithQuery([]float32{0, 0}).
	        WithRadius(3).
	        Execute()
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(len(within), "points in range")
	}

# Search Options

The search builder supports batch queries (WithQuery with several points,
merged via WithScoreAggregation), searching from a stored point (WithPoint),
allow-list filtering by point index (WithPointIDs, backed by roaring
bitmaps), and knee-detection truncation of k-nearest results (WithAutocut).

# Storage Precision

The point snapshot can be stored at full precision (float32, the default),
half precision (float16, 50% smaller) or int8 (75% smaller, min/max scaled).
Reduced precision rounds the stored coordinates; queries remain exact with
respect to what is stored.

# Concurrency

Every index is guarded by a read-write mutex: queries run concurrently with
each other, Build and Clear are exclusive. A query observes either the old
snapshot or the new one, never a mix.
*/
package sector
