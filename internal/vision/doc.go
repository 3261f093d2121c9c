// Package vision locates coloured targets in camera frames and maps their
// pixel positions into arm workspace coordinates.
//
// Hue, saturation and value follow the 8-bit convention used by common
// vision toolkits: hue in [0, 180), saturation and value in [0, 255].
package vision
