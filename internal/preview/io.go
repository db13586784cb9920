package preview

import "os"

// readCapped reads at most max bytes from path, reporting whether the
// file was larger than that cap.
func readCapped(path string, max int64) ([]byte, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}

	readSize := info.Size()
	truncated := false
	if readSize > max {
		readSize = max
		truncated = true
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	data := make([]byte, readSize)
	n, _ := f.Read(data)
	return data[:n], truncated, nil
}
