// Package badminton converts per-frame pose and shuttle-position
// measurements from a badminton video into a semantic timeline: discrete
// shots, shuttle-contact events and rallies.
//
// Responsibilities: trajectory cleaning, multi-signal hit detection with
// non-max suppression, wrist/body velocity estimation, the two shot
// classification strategies (legacy per-frame and hit-centric window
// aggregate), shot-to-hit matching, and rally / gap-zone segmentation.
//
// The package sits strictly downstream of perception. Pose estimation and
// shuttle detection are external collaborators that produce the FrameRecord
// inputs; this package never touches video or model internals. One call to
// Analyzer.Analyze is a pure, single-threaded batch computation over an
// already-buffered frame sequence; independent runs may execute
// concurrently with no shared state.
//
// No SQL/database code is allowed in this package.
package badminton
