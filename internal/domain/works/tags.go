package works

// AllTag is the pseudo-tag that clears a tag selection.
const AllTag = "ALL"

// PredefinedTags is the tag vocabulary offered by the editor and the
// listing filter bar, in display order.
var PredefinedTags = []string{
	"2D",
	"3D",
	"Line Drawing Animation",
	"Branding",
	"Music Video",
	"Content Planning",
	"VR",
	"Cinematic",
	"Graphic Design",
	"Midea Art",
	"SNS Contents",
	"Character Modeling",
}

func IsPredefinedTag(tag string) bool {
	for _, t := range PredefinedTags {
		if t == tag {
			return true
		}
	}
	return false
}
