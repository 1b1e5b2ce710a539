package dto

import "io"

// DownloadResult bundles what the HTTP layer needs to stream a stored
// document back to the client. The caller owns closing Content.
type DownloadResult struct {
	Filename string
	Content  io.ReadCloser
}
