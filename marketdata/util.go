package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(client *http.Client, req *http.Request, data any) error {
	req.Header.Set("User-Agent", "TradeLab/1.0")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// jpath extracts a single value from a decoded JSON document.
// because jsonpath is never clear about whether it returns a list of 1
// answer or a single answer, a one-element list is unwrapped.
func jpath(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	return jval, nil
}

// jpathFloat extracts a float value from a decoded JSON document.
func jpathFloat(jobj any, path string) (float64, error) {
	jval, err := jpath(jobj, path)
	if err != nil {
		return 0, err
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: not a float: %v", path, jval)
	}
	return val, nil
}

// jpathString extracts a string value from a decoded JSON document.
func jpathString(jobj any, path string) (string, error) {
	jval, err := jpath(jobj, path)
	if err != nil {
		return "", err
	}
	val, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("error parsing %q: not a string: %v", path, jval)
	}
	return val, nil
}
