package blogservice

import (
	"github.com/sushihentaime/inkpot/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 250), "title", "must not be more than 250 characters long")
}

func validateSubtitle(v *common.Validator, subtitle string) {
	v.Check(subtitle != "", "subtitle", "must be provided")
	v.Check(v.CheckStringLength(subtitle, 1, 250), "subtitle", "must not be more than 250 characters long")
}

func validateImageURL(v *common.Validator, imageURL string) {
	v.Check(imageURL != "", "img_url", "must be provided")
	v.Check(v.CheckURL(imageURL), "img_url", "must be a valid URL")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
}

func validateCommentText(v *common.Validator, text string) {
	v.Check(text != "", "comment_text", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
