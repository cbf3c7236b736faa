package graph

// Content is the payload carried by a node. The engine never interprets it.
type Content interface {
	isContent()
}

type Text struct {
	Body string `json:"body"`
}

type Image struct {
	URL string `json:"url"`
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Author marks the node representing the site owner. A registry holds at
// most one meaningful author; the first one added wins AuthorID.
type Author struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

func (Text) isContent()   {}
func (Image) isContent()  {}
func (Link) isContent()   {}
func (Author) isContent() {}

// ContentKind returns a short tag for serialization and display.
func ContentKind(c Content) string {
	switch c.(type) {
	case Text:
		return "text"
	case Image:
		return "image"
	case Link:
		return "link"
	case Author:
		return "author"
	default:
		return "none"
	}
}

// Label picks a human readable caption for a node.
func Label(c Content) string {
	switch v := c.(type) {
	case Text:
		return v.Body
	case Image:
		return v.URL
	case Link:
		return v.Text
	case Author:
		return v.Name
	default:
		return ""
	}
}
