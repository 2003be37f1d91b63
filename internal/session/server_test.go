package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Server", func() {
	var (
		decoder     *mockDecoder
		db          *mockDB
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		decoder = &mockDecoder{}
		db = newMockDB()
		service = NewService(db, decoder, newMockStorage())
		auth = BasicAuth{}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	uploadImage := func(filename string, content []byte) *http.Response {
		var b bytes.Buffer
		writer := multipart.NewWriter(&b)
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghttpServer.URL()+"/api/scan/image", writer.FormDataContentType(), &b)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("handleIndex", func() {
		It("should return status OK", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
		})

		It("should return HTML containing Code Scanner", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Code Scanner"))
		})
	})

	Describe("handleScanImage", func() {
		When("a decodable image is uploaded", func() {
			BeforeEach(func() {
				decoder.results = sampleScanResults()
			})

			It("should return status OK", func() {
				resp := uploadImage("ticket.png", testPNGBytes())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return the found records", func() {
				resp := uploadImage("ticket.png", testPNGBytes())
				defer resp.Body.Close()
				var response struct {
					Found   int      `json:"found"`
					Records []Record `json:"records"`
				}
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &response)).NotTo(HaveOccurred())
				Expect(response.Found).To(Equal(1))
				Expect(response.Records[0].Data).To(Equal("https://example.com/ticket/1"))
				Expect(response.Records[0].Source).To(Equal("ticket.png"))
			})

			It("should accumulate the records in the current session", func() {
				resp := uploadImage("ticket.png", testPNGBytes())
				resp.Body.Close()
				Expect(service.Total()).To(Equal(1))
			})
		})

		When("no file is provided", func() {
			It("should return status Bad Request", func() {
				var b bytes.Buffer
				writer := multipart.NewWriter(&b)
				writer.Close()

				resp, err := http.Post(ghttpServer.URL()+"/api/scan/image", writer.FormDataContentType(), &b)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("invalid multipart form", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/scan/image", "multipart/form-data", bytes.NewBufferString("invalid"))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("the upload cannot be decoded as an image", func() {
			It("should return status Unprocessable Entity", func() {
				resp := uploadImage("broken.png", []byte("not an image"))
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				resp.Body.Close()
			})
		})
	})

	Describe("handleScanDirectory", func() {
		When("no path is provided", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/scan/directory", "application/json", strings.NewReader(`{}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("a scan is already running", func() {
			BeforeEach(func() {
				Expect(server.tryBeginScan()).To(BeTrue())
			})

			AfterEach(func() {
				server.endScan()
			})

			It("should return status Conflict", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/scan/directory", "application/json",
					strings.NewReader(`{"path": "/tmp/codes", "recursive": true}`))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusConflict))
				resp.Body.Close()
			})
		})
	})

	Describe("handleListRecords", func() {
		When("no records exist", func() {
			It("should return an empty list", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/records")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var response struct {
					Total   int      `json:"total"`
					Records []Record `json:"records"`
				}
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &response)).NotTo(HaveOccurred())
				Expect(response.Total).To(Equal(0))
				Expect(response.Records).To(BeEmpty())
			})
		})

		When("records exist", func() {
			BeforeEach(func() {
				decoder.results = sampleScanResults()
				_, err := service.ScanUpload("badge.png", testPNGBytes())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the accumulated records", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/records")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var response struct {
					Total   int      `json:"total"`
					Records []Record `json:"records"`
				}
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &response)).NotTo(HaveOccurred())
				Expect(response.Total).To(Equal(1))
				Expect(response.Records[0].Symbology).To(Equal("QR_CODE"))
			})
		})
	})

	Describe("handleClearRecords", func() {
		BeforeEach(func() {
			decoder.results = sampleScanResults()
			_, err := service.ScanUpload("badge.png", testPNGBytes())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should discard the current session", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/records", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
			Expect(service.Total()).To(Equal(0))
		})
	})

	Describe("handleStatus", func() {
		It("should report idle with no records", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/status")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			var response struct {
				Scanning bool `json:"scanning"`
				Total    int  `json:"total"`
			}
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &response)).NotTo(HaveOccurred())
			Expect(response.Scanning).To(BeFalse())
			Expect(response.Total).To(Equal(0))
		})

		When("a scan is running", func() {
			BeforeEach(func() {
				Expect(server.tryBeginScan()).To(BeTrue())
			})

			AfterEach(func() {
				server.endScan()
			})

			It("should report scanning", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/status")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var response struct {
					Scanning bool `json:"scanning"`
				}
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &response)).NotTo(HaveOccurred())
				Expect(response.Scanning).To(BeTrue())
			})
		})
	})

	Describe("handleDownloadExport", func() {
		BeforeEach(func() {
			decoder.results = sampleScanResults()
			_, err := service.ScanUpload("badge.png", testPNGBytes())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should stream the JSON envelope by default", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/export")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

			var doc ExportDocument
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &doc)).NotTo(HaveOccurred())
			Expect(doc.TotalCodes).To(Equal(1))
			Expect(doc.Results).To(HaveLen(1))
		})

		It("should set a Content-Disposition header", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/export")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("scan_results.json"))
		})

		It("should stream the text layout when format=txt", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/export?format=txt")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Code Scan Results"))
			Expect(string(body)).To(ContainSubstring("Code #1"))
		})
	})

	Describe("handleGetExportFile", func() {
		When("the export exists", func() {
			BeforeEach(func() {
				decoder.results = sampleScanResults()
				_, err := service.ScanUpload("badge.png", testPNGBytes())
				Expect(err).NotTo(HaveOccurred())
				_, err = service.Export("results.json")
				Expect(err).NotTo(HaveOccurred())
			})

			It("should serve the stored file", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/export/files/results.json")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring(`"total_codes": 1`))
			})
		})

		When("the export does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/export/files/missing.json")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("handleDeleteExportFile", func() {
		BeforeEach(func() {
			decoder.results = sampleScanResults()
			_, err := service.ScanUpload("badge.png", testPNGBytes())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Export("old.json")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should remove the stored file", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/export/files/old.json", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			_, err = service.ReadExport("old.json")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("handleSaveSession", func() {
		When("records exist", func() {
			BeforeEach(func() {
				decoder.results = sampleScanResults()
				_, err := service.ScanUpload("badge.png", testPNGBytes())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should persist the session and return it", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/sessions", "application/json", nil)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var saved Session
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &saved)).NotTo(HaveOccurred())
				Expect(saved.ID).NotTo(BeEmpty())
				Expect(saved.Records).To(HaveLen(1))
				Expect(db.sessions).To(HaveKey(saved.ID))
			})
		})

		When("no records exist", func() {
			It("should return status Unprocessable Entity", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/sessions", "application/json", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				resp.Body.Close()
			})
		})
	})

	Describe("handleListSessions", func() {
		BeforeEach(func() {
			db.sessions["s1"] = &Session{ID: "s1"}
			db.sessions["s2"] = &Session{ID: "s2"}
		})

		It("should return all saved sessions", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/sessions")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			var sessions []*Session
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(body, &sessions)).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
		})
	})

	Describe("handleGetSession", func() {
		When("the session exists", func() {
			BeforeEach(func() {
				db.sessions["s1"] = &Session{ID: "s1"}
			})

			It("should return the session", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/sessions/s1")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var got Session
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &got)).NotTo(HaveOccurred())
				Expect(got.ID).To(Equal("s1"))
			})
		})

		When("the session does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/sessions/nonexistent")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})
	})

	Describe("handleDeleteSession", func() {
		BeforeEach(func() {
			db.sessions["s1"] = &Session{ID: "s1"}
		})

		It("should remove the session", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/sessions/s1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
			Expect(db.sessions).NotTo(HaveKey("s1"))
		})
	})

	Describe("requireAuth", func() {
		When("auth is configured and no credentials are provided", func() {
			BeforeEach(func() {
				auth = BasicAuth{Username: "user", Password: "pass"}
				server = NewServerWithMux(service, auth, http.NewServeMux())
				setupServer()
			})

			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/records")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})

			It("should set WWW-Authenticate header", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/records")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.Header.Get("WWW-Authenticate")).NotTo(BeEmpty())
			})
		})

		When("valid credentials are provided", func() {
			BeforeEach(func() {
				auth = BasicAuth{Username: "user", Password: "pass"}
				server = NewServerWithMux(service, auth, http.NewServeMux())
				setupServer()
			})

			It("should return status OK", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/records", nil)
				Expect(err).NotTo(HaveOccurred())
				credentials := base64.StdEncoding.EncodeToString([]byte("user:pass"))
				req.Header.Set("Authorization", "Basic "+credentials)
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})

		When("invalid credentials are provided", func() {
			BeforeEach(func() {
				auth = BasicAuth{Username: "user", Password: "pass"}
				server = NewServerWithMux(service, auth, http.NewServeMux())
				setupServer()
			})

			It("should return status Unauthorized", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/records", nil)
				Expect(err).NotTo(HaveOccurred())
				credentials := base64.StdEncoding.EncodeToString([]byte("user:wrong"))
				req.Header.Set("Authorization", "Basic "+credentials)
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})
	})

	Describe("handleStaticCSS", func() {
		It("should return CSS content", func() {
			resp, err := http.Get(ghttpServer.URL() + "/static/app.css")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/css"))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(body)).To(BeNumerically(">", 0))
		})
	})

	Describe("handleStaticJS", func() {
		It("should return JavaScript content", func() {
			resp, err := http.Get(ghttpServer.URL() + "/static/app.js")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/javascript"))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(body)).To(BeNumerically(">", 0))
		})
	})
})
