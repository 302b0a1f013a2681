package domain

// APIRequest is the closed set of outbound request shapes the dispatcher
// accepts. Each variant carries exactly the fields its HTTP method permits,
// so a query mapping can only ride on a GET and a file payload only travels
// on the multipart POST form. The unexported marker keeps the set closed.
type APIRequest interface {
	apiRequest()
}

// GetRequest issues a GET. Query values, if any, are URL-encoded and
// appended to the target URL.
type GetRequest struct {
	URL     string
	Headers map[string]string
	Query   map[string]string
}

// PostRequest issues a POST with an optional JSON body.
type PostRequest struct {
	URL     string
	Headers map[string]string
	Body    any
}

// MultipartRequest issues a POST encoded as multipart/form-data, with
// Fields sent as plain form values and Files as the binary parts.
type MultipartRequest struct {
	URL     string
	Headers map[string]string
	Fields  map[string]string
	Files   []FilePart
}

// FilePart is one binary part of a multipart upload.
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// PutRequest issues a PUT with a JSON body.
type PutRequest struct {
	URL     string
	Headers map[string]string
	Body    any
}

// PatchRequest issues a PATCH with a JSON body.
type PatchRequest struct {
	URL     string
	Headers map[string]string
	Body    any
}

// DeleteRequest issues a DELETE. Body is usually nil; the bulk content
// endpoints are the exception and require one.
type DeleteRequest struct {
	URL     string
	Headers map[string]string
	Body    any
}

func (GetRequest) apiRequest()       {}
func (PostRequest) apiRequest()      {}
func (MultipartRequest) apiRequest() {}
func (PutRequest) apiRequest()       {}
func (PatchRequest) apiRequest()     {}
func (DeleteRequest) apiRequest()    {}
