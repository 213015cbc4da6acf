package common

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Provider calls are bounded so a slow collaborator can never stall the
// scoring pipeline or the alert path.
var httpClient = &http.Client{Timeout: 5 * time.Second}

func GetWithRetry(req *http.Request, name string) (*http.Response, error) {
	var resp *http.Response
	var err error

	validResp, retries := false, 3
	for !validResp {
		resp, err = httpClient.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			if retries > 1 {
				retries--
				continue
			} else {
				err = errors.New(fmt.Sprintf("error on %v api request: %s", name, err.Error()))
				return nil, err
			}
		} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			if retries > 1 {
				retries--
				continue
			} else {
				err = errors.New(fmt.Sprintf("error code %v returned from %v", resp.StatusCode, name))
				return nil, err
			}
		} else {
			validResp = true
		}
	}
	return resp, nil
}
