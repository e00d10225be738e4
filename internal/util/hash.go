package util

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	mmap "github.com/edsrzf/mmap-go"
)

// chunkSize is the read granularity used when a file cannot be
// memory-mapped (e.g. a zero-length file, or a platform mmap failure);
// it also bounds how often the progress callback can fire.
const chunkSize = 64 * 1024

// ProgressFunc is called while hashing a file. path is the file being
// hashed, done/total are byte counts, and elapsed is time since the hash
// started. Per §5 it must not be invoked more than 5 times per second.
type ProgressFunc func(path string, done, total int64, elapsed time.Duration)

// SHA1Base64 returns the base64 encoding of the SHA-1 digest of the file
// at path, matching the PKL Hash element's encoding. Large files are
// memory-mapped (github.com/edsrzf/mmap-go) and hashed without copying
// through a user-space buffer; progress is still reported in chunkSize
// increments so the callback contract is identical either way.
func SHA1Base64(path string, progress ProgressFunc) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	total := info.Size()

	h := sha1.New()
	start := time.Now()
	lastReport := start

	if total == 0 {
		sum := h.Sum(nil)
		return base64.StdEncoding.EncodeToString(sum), nil
	}

	region, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		// Fall back to buffered reads (mmap can fail on network
		// filesystems or for files that change size underneath us).
		return sha1Buffered(f, total, progress)
	}
	defer region.Unmap()

	var done int64
	for done < int64(len(region)) {
		end := done + chunkSize
		if end > int64(len(region)) {
			end = int64(len(region))
		}
		h.Write(region[done:end])
		done = end

		if progress != nil && time.Since(lastReport) >= 200*time.Millisecond {
			progress(path, done, total, time.Since(start))
			lastReport = time.Now()
		}
	}
	if progress != nil {
		progress(path, total, total, time.Since(start))
	}

	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

func sha1Buffered(f *os.File, total int64, progress ProgressFunc) (string, error) {
	h := sha1.New()
	buf := make([]byte, chunkSize)
	start := time.Now()
	lastReport := start
	var done int64

	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			done += int64(n)
			if progress != nil && time.Since(lastReport) >= 200*time.Millisecond {
				progress(f.Name(), done, total, time.Since(start))
				lastReport = time.Now()
			}
		}
		if err != nil {
			break
		}
	}
	if progress != nil {
		progress(f.Name(), done, total, time.Since(start))
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// FileSize returns the on-disk size of path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
