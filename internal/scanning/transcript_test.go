package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cleanTranscript", func() {
	var (
		input  string
		output string
	)

	JustBeforeEach(func() {
		output = cleanTranscript(input)
	})

	When("the transcript is plain text", func() {
		BeforeEach(func() {
			input = "  Bread 150 L\nMilk 90 L  \n"
		})

		It("should trim surrounding whitespace", func() {
			Expect(output).To(Equal("Bread 150 L\nMilk 90 L"))
		})
	})

	When("the transcript is wrapped in a code fence", func() {
		BeforeEach(func() {
			input = "```text\nBread 150 L\nTotal 150 L\n```"
		})

		It("should remove the fence", func() {
			Expect(output).To(Equal("Bread 150 L\nTotal 150 L"))
		})
	})

	When("the transcript uses CRLF", func() {
		BeforeEach(func() {
			input = "Bread 150 L\r\nMilk 90 L"
		})

		It("should normalize line endings", func() {
			Expect(output).To(Equal("Bread 150 L\nMilk 90 L"))
		})
	})
})

var _ = Describe("finishTranscript", func() {
	It("returns ErrNoText for blank answers", func() {
		_, err := finishTranscript("```\n```")
		Expect(err).To(MatchError(ErrNoText))
	})
})
