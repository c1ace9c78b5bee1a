package seedrapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// partSuffix is appended to the destination path while a download is in
// flight; a leftover .part file after a crash is what lets the reconciler's
// completion predicate recognize an unfinished copy and resume it.
const partSuffix = ".part"

// DownloadFileToPath streams a cloud file to path, staging the content at
// path+".part" and renaming atomically on success. Any exit path that does
// not complete the rename (cancellation, request error, write error) removes
// the partial file so a subsequent attempt starts clean.
func (c *Client) DownloadFileToPath(ctx context.Context, fileID, path string) error {
	resp, err := c.do(ctx, "GET", "/file/"+fileID, nil, RetriesDownload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	partPath := path + partSuffix

	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("seedrapi: creating %s: %w", partPath, err)
	}

	n, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		os.Remove(partPath)

		if copyErr != nil {
			c.logger.Error("streaming download failed",
				slog.String("file_id", fileID), slog.Int64("bytes_before_error", n),
				slog.String("error", copyErr.Error()))

			return fmt.Errorf("seedrapi: streaming file %s: %w", fileID, copyErr)
		}

		return fmt.Errorf("seedrapi: closing %s: %w", partPath, closeErr)
	}

	if ctx.Err() != nil {
		os.Remove(partPath)
		return fmt.Errorf("seedrapi: download canceled: %w", ctx.Err())
	}

	os.Remove(path)

	if err := os.Rename(partPath, path); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("seedrapi: finalizing %s: %w", path, err)
	}

	c.logger.Debug("download complete", slog.String("file_id", fileID), slog.Int64("bytes_written", n))

	return nil
}
