package load

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPFetcher downloads exports from the FTP drops some state agencies
// still publish.
type FTPFetcher struct {
	timeout time.Duration
}

// NewFTPFetcher creates an FTP fetcher.
func NewFTPFetcher(timeout time.Duration) *FTPFetcher {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &FTPFetcher{timeout: timeout}
}

// DownloadToFile retrieves an ftp:// URL into a local file with an
// anonymous login. Returns bytes written.
func (f *FTPFetcher) DownloadToFile(ctx context.Context, ftpURL, path string) (int64, error) {
	host, remotePath, err := splitFTPURL(ftpURL)
	if err != nil {
		return 0, err
	}

	zap.L().Debug("load: ftp retrieve",
		zap.String("host", host),
		zap.String("path", remotePath),
	)

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(f.timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return 0, eris.Wrapf(err, "load: ftp dial %s", host)
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return 0, eris.Wrap(err, "load: ftp login")
	}

	resp, err := conn.Retr(remotePath)
	if err != nil {
		return 0, eris.Wrapf(err, "load: ftp retrieve %s", remotePath)
	}
	defer resp.Close()

	out, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrapf(err, "load: create %s", path)
	}
	defer out.Close()

	n, err := io.Copy(out, resp)
	if err != nil {
		return n, eris.Wrapf(err, "load: write %s", path)
	}
	return n, nil
}

// splitFTPURL extracts host:port and path from an ftp URL, defaulting the
// port to 21.
func splitFTPURL(rawURL string) (host, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrapf(err, "load: parse ftp url %s", rawURL)
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("load: expected ftp scheme, got %q", u.Scheme)
	}
	if u.Path == "" {
		return "", "", eris.Errorf("load: ftp url %s has no path", rawURL)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}
	return host, u.Path, nil
}
