// Package pipeline orchestrates the playlist-to-video publishing run.
//
// # Core Operation
//
// The [Orchestrator] walks every tagged playlist through a strict stage
// sequence:
//
//  1. Resolve : Thumbnail fallback chain (generative → stock photo → local synthesis)
//  2. Collect : Concurrent audio fetches, reassembled in source track order
//  3. Compose : Still image looped over concatenated audio via ffmpeg
//  4. Upload  : Resumable chunked upload to YouTube
//  5. MarkDone : Playlist rename flipping the pending marker to the done marker
//
// Each stage's output feeds the next. A stage failure records the playlist's
// outcome with its failed stage and moves on to the next playlist; partial
// success is a normal run. The rename happens exactly once, only after a
// successful upload, so an interrupted run leaves the playlist tagged pending
// and a re-run picks it up again.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data. Updates use select with default to prevent blocking.
//
// # Implementation
//
// [Orchestrator] depends only on interfaces:
//   - [services.PlaylistSource] : tagged playlist listing and renames
//   - [ThumbnailResolver] : the provider fallback chain
//   - [AudioCollector] : per-track audio fetching
//   - [VideoComposer] : artifact encoding
//   - [Publisher] : resumable upload client
package pipeline
