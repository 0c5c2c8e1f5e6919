package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/netx"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// remote talks to a running portfolio server.
type remote struct {
	baseURL string
	client  *http.Client
}

func newRemote(baseURL string) *remote {
	return &remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *remote) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&eb)
		if eb.Error.Message == "" {
			eb.Error.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, eb.Error.Message)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type loginReply struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r *remote) login(ctx context.Context, username, password string) (*loginReply, error) {
	var out loginReply
	in := map[string]string{"username": username, "password": password}
	if err := r.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// uploadImage requests a presigned URL for the entry and PUTs the file to it.
func (r *remote) uploadImage(ctx context.Context, token, entryID, file string) (*models.ImageUpload, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var up models.ImageUpload
	if err := r.do(ctx, http.MethodPost, "/tech/"+entryID+"/image", token, nil, &up); err != nil {
		return nil, err
	}

	ct := mime.TypeByExtension(filepath.Ext(file))
	if err := netx.UploadToPresignedURL(ctx, r.client, up.URL, ct, f); err != nil {
		return nil, err
	}
	return &up, nil
}

func newRemoteCmds(env func(name, fallback string) string) []*cobra.Command {
	var server string
	var passwordStdin bool

	login := &cobra.Command{
		Use:   "login <username>",
		Short: "Obtain an access token from a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			var err error
			if passwordStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = readOnce(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			tok, err := newRemote(server).login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	login.Flags().StringVar(&server, "server", env("SERVER_URL", "http://localhost:8080"), "portfolio server base URL")
	login.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")

	var imageServer, token string
	image := &cobra.Command{
		Use:   "image",
		Short: "Manage tech entry images",
	}
	upload := &cobra.Command{
		Use:   "upload <entry-id> <file>",
		Short: "Upload an image for a tech entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("a token is required: run portfolioctl login or set %sTOKEN", config.EnvPrefix)
			}
			up, err := newRemote(imageServer).uploadImage(cmd.Context(), token, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s as %s\n", args[1], up.StorageKey)
			return nil
		},
	}
	upload.Flags().StringVar(&imageServer, "server", env("SERVER_URL", "http://localhost:8080"), "portfolio server base URL")
	upload.Flags().StringVar(&token, "token", env("TOKEN", ""), "bearer token with the Admin role")
	image.AddCommand(upload)

	return []*cobra.Command{login, image}
}
