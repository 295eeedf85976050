package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/render"
	"github.com/riverfjs/docmark-go/internal/store"
)

// DocumentSummary 历史列表中的一项
type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	PageCount int       `json:"pageCount,omitempty"`
	FileSize  int64     `json:"fileSize,omitempty"`
	Images    int       `json:"images"`
	Preview   string    `json:"preview"`
}

func summarize(doc *docmark.Document) DocumentSummary {
	return DocumentSummary{
		ID:        doc.ID,
		Name:      doc.Name,
		Timestamp: doc.Timestamp,
		PageCount: doc.PageCount,
		FileSize:  doc.FileSize,
		Images:    len(doc.Images),
		Preview:   docmark.Preview(doc.Markdown, 120),
	}
}

// BatchResult 多文件上传中单个文件的结果
type BatchResult struct {
	Name     string            `json:"name"`
	Document *docmark.Document `json:"document,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// CopyResponse 复制请求的结果
type CopyResponse struct {
	Intercepted bool   `json:"intercepted"`
	Text        string `json:"text"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func (s *Server) convertHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.fail(w, r, docmark.ErrNoFile)
		return
	}
	inputs := make([]docmark.Input, 0, len(headers))
	for _, fh := range headers {
		in, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		inputs = append(inputs, in)
	}

	if len(inputs) == 1 {
		doc, err := s.converter.ProcessFile(r.Context(), inputs[0])
		s.countConversion(err)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, doc)
		return
	}

	results, err := s.converter.ProcessFiles(r.Context(), inputs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]BatchResult, len(results))
	for i, res := range results {
		s.countConversion(res.Err)
		out[i] = BatchResult{Name: res.Name, Document: res.Document}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func readUpload(fh *multipart.FileHeader) (docmark.Input, error) {
	f, err := fh.Open()
	if err != nil {
		return docmark.Input{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return docmark.Input{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return docmark.Input{Name: fh.Filename, MIMEType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func (s *Server) countConversion(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.metrics.conversions.WithLabelValues(result).Inc()
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.All(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docs = store.Search(docs, r.URL.Query().Get("q"))
	out := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = summarize(d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget("")
	w.WriteHeader(http.StatusNoContent)
}

// document 读取路径中的文档，失败时已写出错误响应
func (s *Server) document(w http.ResponseWriter, r *http.Request) (*docmark.Document, bool) {
	doc, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) blocksHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.blocks(doc))
}

func (s *Server) pass(doc *docmark.Document) *render.Pass {
	var opts []docmark.Option
	if s.cfg.RenderConfig != nil {
		opts = append(opts, docmark.WithConfig(s.cfg.RenderConfig))
	}
	return docmark.Render(s.blocks(doc), s.prefs, doc.ImageMap, opts...)
}

func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.pass(doc).View())
}

func (s *Server) copyHandler(w http.ResponseWriter, r *http.Request) {
	var sel docmark.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid selection: %v", err))
		return
	}
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	text, intercepted := docmark.Copy(s.pass(doc), s.prefs, sel)
	s.metrics.copies.WithLabelValues(strconv.FormatBool(intercepted)).Inc()
	writeJSON(w, http.StatusOK, CopyResponse{Intercepted: intercepted, Text: text})
}

func writeFile(w http.ResponseWriter, f *docmark.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}

func (s *Server) markdownHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeFile(w, docmark.ExportMarkdown(doc))
}

func (s *Server) archiveHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	f, err := docmark.ExportArchive(doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeFile(w, f)
}

func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := docmark.ImageOptions{PNG: q.Get("format") == "png"}
	if format := q.Get("format"); format != "" && format != "png" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}
	if thumb := q.Get("thumb"); thumb != "" {
		n, err := strconv.Atoi(thumb)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "thumb must be a positive integer")
			return
		}
		opts.Thumb = n
	}

	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	f, err := docmark.ExportImage(doc, r.PathValue("imageID"), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeFile(w, f)
}

func (s *Server) getPreferencesHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

func (s *Server) putPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.prefs.Snapshot()
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid preferences: %v", err))
		return
	}
	s.prefs.Apply(snap)
	s.logger.Info().
		Bool("copy_as_markdown", snap.CopyAsMarkdown).
		Bool("show_images", snap.ShowImages).
		Msg("preferences updated")
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

func (s *Server) storageHandler(w http.ResponseWriter, r *http.Request) {
	est, err := s.store.Estimate(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
