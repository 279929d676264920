package course

// StripContent removes the chapter tree from a course for catalog listings,
// where only summary fields are served.
func (c *Course) StripContent() {
	c.Content = nil
	c.EnrolledStudents = nil
}

// StripPremiumLectureURLs blanks the media URL of every lecture that is not
// marked as a free preview, so detail responses never leak paid content.
func (c *Course) StripPremiumLectureURLs() {
	for ci := range c.Content {
		for li := range c.Content[ci].ChapterContent {
			if !c.Content[ci].ChapterContent[li].IsPreviewFree {
				c.Content[ci].ChapterContent[li].LectureURL = ""
			}
		}
	}
}
