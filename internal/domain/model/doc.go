// Package model holds the education catalog records exchanged with clients and the
// codec that maps them to and from JSON.
//
// Records are snapshots: they carry identifiers of related records rather than owning
// them, except where a view (ExerciseDetails, RoadmapDetails) nests or flattens data.
package model
