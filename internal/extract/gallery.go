package extract

import (
	"fmt"
	"html/template"
	"os"
)

// galleryTemplate renders the extracted links as a simple local preview page
const galleryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Extracted Videos</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f9;
            margin: 0;
            padding: 20px;
        }
        h1 {
            text-align: center;
            color: #333;
        }
        .gallery {
            display: flex;
            flex-wrap: wrap;
            gap: 15px;
            justify-content: center;
        }
        .gallery video {
            max-width: 300px;
            max-height: 200px;
            border: 1px solid #ddd;
            border-radius: 5px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }
    </style>
</head>
<body>
    <h1>Extracted Videos</h1>
    <div class="gallery">
{{- range . }}
        <video controls><source src="{{ . }}" type="video/mp4"></video>
{{- end }}
    </div>
</body>
</html>
`

var galleryTmpl = template.Must(template.New("gallery").Parse(galleryTemplate))

// WriteGallery renders the video links as an HTML gallery page at path
func WriteGallery(links []string, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create gallery file: %w", err)
	}
	defer file.Close()

	if err := galleryTmpl.Execute(file, links); err != nil {
		return fmt.Errorf("failed to render gallery: %w", err)
	}
	return nil
}
