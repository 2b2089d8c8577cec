package api

import (
	"net/http"

	"github.com/allkit/docapi/config"
	"github.com/allkit/docapi/imaging"
	"github.com/allkit/docapi/office"
	"github.com/allkit/docapi/pdf"
	"github.com/allkit/docapi/shell"
	"github.com/allkit/docapi/workspace"
	"github.com/gin-gonic/gin"
)

// Option the api option
type Option struct {
	MaxUploadSize int64    // bytes per file
	Production    bool     // hide engine output from error details
	AllowOrigins  []string // CORS origins, "*" allows any
}

// Service the document conversion api
type Service struct {
	option     Option
	workspaces *workspace.Manager
	assembler  *pdf.Assembler
	pdf        *pdf.PDF
	distiller  *pdf.Distiller
	exporter   *pdf.Exporter
	office     *office.Converter
	remover    *imaging.BackgroundRemover
	inspector  *inspector
}

// New create the api service from the configuration
func New(cfg config.Config, workspaces *workspace.Manager) *Service {
	paths := pdf.ToolPaths{
		pdf.ToolPdftoppm:    cfg.Tools.Pdftoppm,
		pdf.ToolPdftotext:   cfg.Tools.Pdftotext,
		pdf.ToolMutool:      cfg.Tools.Mutool,
		pdf.ToolGhostscript: cfg.Tools.Ghostscript,
	}

	pool := shell.NewPool(cfg.Workers)
	pdfs := pdf.New(pdf.Options{
		RenderTool: pdf.Tool(cfg.Tools.RenderTool),
		ToolPaths:  paths,
		Timeout:    cfg.Timeouts.Render,
		Pool:       pool,
	})
	soffice := office.NewConverter(shell.New(cfg.Timeouts.Office).WithPool(pool), cfg.Tools.Soffice)

	s := &Service{
		option: Option{
			MaxUploadSize: cfg.MaxUploadSize,
			Production:    cfg.IsProduction(),
			AllowOrigins:  cfg.AllowOrigins,
		},
		workspaces: workspaces,
		assembler:  pdf.NewAssembler(),
		pdf:        pdfs,
		distiller:  pdf.NewDistiller(pdf.NewCommand(shell.New(cfg.Timeouts.Ghostscript).WithPool(pool), paths)),
		exporter:   pdf.NewExporter(pdfs, soffice),
		office:     soffice,
		remover:    imaging.NewBackgroundRemover(shell.New(cfg.Timeouts.Rembg).WithPool(pool), cfg.Tools.Rembg),
	}

	tools := append(pdf.Tools(pdfs.Command()), soffice.Tool(), s.remover.Tool())
	s.inspector = newInspector(tools)
	return s
}

// Tools returns the status of every external engine
func (s *Service) Tools() map[string]*shell.ToolStatus {
	return s.inspector.inspect()
}

// Router returns the gin engine serving the api
func (s *Service) Router() *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(Logger(), Recovery(), CORS(s.option.AllowOrigins))

	router.GET("/health", s.health)

	api := router.Group("/api")
	api.GET("/tools", s.tools)
	api.POST("/convert-to-pdf", s.convertToPDF)
	api.POST("/pdf/organize-pdf", s.organize)
	api.POST("/pdf/split", s.split)
	api.POST("/pdf/pdf-to-any", s.pdfToAny)
	api.POST("/pdf/from/word", s.wordToPDF)

	tools := router.Group("/tools")
	tools.POST("/pdf/merge-pdf", s.merge)
	tools.POST("/pdf/compress-pdf", s.compress)
	tools.POST("/image/converter/convert", s.convertImages)
	tools.POST("/image/bgremover/remove-background", s.removeBackground)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return router
}

func (s *Service) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Service) tools(c *gin.Context) {
	c.JSON(http.StatusOK, s.Tools())
}
