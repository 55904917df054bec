// Package mediatypes classifies inference inputs and model artifacts by
// file extension.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles.
//
// # File Types
//
//	mediatypes.FileTypeImage // jpg, png, bmp, webp, pnm family, ...
//	mediatypes.FileTypeVideo // mp4, avi, mkv, mov, webm, flv family, ...
//	mediatypes.FileTypeModel // onnx, pb, trt/engine/plan, pt/pth, tflite, ...
//	mediatypes.FileTypeOther // anything else
//
// # Extension Detection
//
// Classify and the Is*File predicates lower-case the extension themselves:
//
//	if mediatypes.IsModelFile("weights/YOLOv8.ONNX") {
//	    // ...
//	}
//
// GetFileType expects an extension that is already lower-case and dotted.
package mediatypes
