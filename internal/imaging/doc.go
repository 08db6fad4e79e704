// Package imaging turns image files into weighted point sets for the Hough
// transform.
//
// Images are loaded through ImageCache and reduced to their edge pixels by
// EdgePoints. Each edge pixel becomes one point whose weight is its gradient
// magnitude.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. For regions, (x1,y1) is
// inclusive and (x2,y2) is exclusive.
//
// EdgeOptions.Center switches the points to a centered frame: the origin sits
// at the middle of the analyzed area and Y points up, so radii in Hough space
// are measured from the image center.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. EdgePoints does not modify its input
// and can run concurrently on the same image.
//
// # Performance Considerations
//
// Large images may consume significant memory when cached. Use Evict or Clear
// to manage memory in long-running processes. Every edge pixel becomes a
// point, so restricting extraction to a Region or raising the thresholds
// keeps transforms of large images fast.
package imaging
