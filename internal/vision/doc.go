// Package vision loads frames and prepares them for inference.
//
// Loading wraps imaging with auto-orientation and a guard against very
// large sources ([LoadImageConstrained]). When libvips is initialized with
// [InitVips], [LoadFrame] shrinks at decode time instead.
//
// Preprocessing follows the usual detector input pipeline: letterbox with
// [ResizeKeepAspectRatio], scale and normalize into an HWC [Tensor] with
// [Normalize], transpose with [HWCToCHW] and stack with [Batch].
// [PreprocessBatch] runs the whole pipeline over many frames on a bounded
// worker pool.
//
// The drawing helpers render detections onto a draw.Image: boxes, labels,
// polygons and keypoints.
package vision
