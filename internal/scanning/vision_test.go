package scanning

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/zombor/receipt-scanner/internal/extraction"
)

var _ = Describe("documentFromVision", func() {
	It("returns an empty document for a nil annotation", func() {
		Expect(documentFromVision(nil)).To(Equal(&extraction.Document{}))
	})

	It("keeps text and paragraph confidences", func() {
		doc := documentFromVision(&vision.TextAnnotation{
			Text: "ACME\nTotal $5.00",
			Pages: []*vision.Page{{
				Blocks: []*vision.Block{
					{Paragraphs: []*vision.Paragraph{{Confidence: 0.9}, {Confidence: 0.7}}},
					nil,
				},
			}},
		})
		Expect(doc.Text).To(Equal("ACME\nTotal $5.00"))
		Expect(doc.Pages).To(HaveLen(1))
		Expect(doc.Pages[0].Blocks).To(HaveLen(1))
		Expect(doc.Pages[0].Blocks[0].Paragraphs).To(HaveLen(2))
		Expect(extraction.ComputeConfidence(*doc)).To(HaveValue(BeNumerically("~", 0.8, 1e-9)))
	})
})

var _ = Describe("documentFromVision without confidences", func() {
	It("leaves paragraphs with no confidence out of the mean", func() {
		doc := documentFromVision(&vision.TextAnnotation{
			Text: "ACME",
			Pages: []*vision.Page{{
				Blocks: []*vision.Block{
					{Paragraphs: []*vision.Paragraph{{Confidence: 0.9}, {}}},
				},
			}},
		})
		Expect(doc.Pages[0].Blocks[0].Paragraphs).To(HaveLen(2))
		Expect(doc.Pages[0].Blocks[0].Paragraphs[1].Confidence).To(BeNil())
		Expect(extraction.ComputeConfidence(*doc)).To(HaveValue(BeNumerically("~", 0.9, 1e-9)))
	})

	It("reports no confidence when no paragraph carries one", func() {
		doc := documentFromVision(&vision.TextAnnotation{
			Text:  "ACME",
			Pages: []*vision.Page{{Blocks: []*vision.Block{{Paragraphs: []*vision.Paragraph{{}}}}}},
		})
		Expect(extraction.ComputeConfidence(*doc)).To(BeNil())
	})
})

var _ = Describe("Vision", func() {
	var (
		server  *ghttp.Server
		scanner *Vision
		doc     *extraction.Document
		err     error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var newErr error
		scanner, newErr = NewVision(context.Background(), 5*time.Second,
			option.WithEndpoint(server.URL()+"/"),
			option.WithoutAuthentication(),
		)
		Expect(newErr).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		doc, err = scanner.Recognize(context.Background(), testPNG(), "image/png")
	})

	When("the annotation succeeds", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/v1/images:annotate"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
					"responses": []any{map[string]any{
						"fullTextAnnotation": map[string]any{
							"text": "ACME\nTotal $5.00\n",
							"pages": []any{map[string]any{
								"blocks": []any{map[string]any{
									"paragraphs": []any{
										map[string]any{"confidence": 0.9},
										map[string]any{"confidence": 0.7},
									},
								}},
							}},
						},
					}},
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the recognized text", func() {
			Expect(doc.Text).To(Equal("ACME\nTotal $5.00\n"))
		})

		It("returns the layout", func() {
			Expect(extraction.ComputeConfidence(*doc)).To(HaveValue(BeNumerically("~", 0.8, 1e-9)))
		})
	})

	When("the image has no text", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"responses": []any{map[string]any{}},
			}))
		})

		It("returns an empty document", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Text).To(BeEmpty())
		})
	})

	When("vision reports a per-image error", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"responses": []any{map[string]any{
					"error": map[string]any{"code": 3, "message": "Bad image data."},
				}},
			}))
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("Bad image data.")))
		})
	})

	When("the API call fails", func() {
		BeforeEach(func() {
			server.RouteToHandler(http.MethodPost, "/v1/images:annotate",
				ghttp.RespondWith(http.StatusInternalServerError, `{"error":{"code":500,"message":"backend"}}`))
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
