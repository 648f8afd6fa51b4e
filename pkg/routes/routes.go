// Package routes names the client-side destinations the forms navigate to.
package routes

import (
	"fmt"
	"net/url"
)

const (
	Home   = "/"
	SignIn = "/auth/signin"
	SignUp = "/auth/signup"
	Login  = "/login"
	// Review is the placeholder review detail route pattern.
	Review = "/blog/{id}/review/{reviewId}"
)

// ReviewPath builds the review detail route for a blog post.
func ReviewPath(id, reviewID string) string {
	return fmt.Sprintf("/blog/%s/review/%s", url.PathEscape(id), url.PathEscape(reviewID))
}

// ReviewHeading is the text the placeholder review page shows.
func ReviewHeading(id, reviewID string) string {
	return fmt.Sprintf("ReviewDetail %s for blog %s", reviewID, id)
}
