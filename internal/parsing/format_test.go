package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("FormatLek", func() {
	DescribeTable("formats amounts",
		func(amount, expected string) {
			Expect(FormatLek(decimal.RequireFromString(amount))).To(Equal(expected))
		},
		Entry("small whole amount", "150", "150 L"),
		Entry("thousands", "1200", "1.200 L"),
		Entry("millions", "1234567", "1.234.567 L"),
		Entry("decimals", "1200.5", "1.200,50 L"),
		Entry("zero", "0", "0 L"),
		Entry("negative", "-90", "-90 L"),
	)
})

var _ = Describe("parseNumber", func() {
	DescribeTable("reads Lek number tokens",
		func(token, expected string) {
			value, ok := parseNumber(token)
			Expect(ok).To(BeTrue())
			Expect(value.String()).To(Equal(expected))
		},
		Entry("plain", "150", "150"),
		Entry("dot thousands", "1.200", "1200"),
		Entry("comma thousands", "1,200", "1200"),
		Entry("comma decimals", "12,50", "12.5"),
		Entry("grouped with decimals", "1.200,50", "1200.5"),
		Entry("several groups", "1.234.567", "1234567"),
		Entry("space thousands", "1 200", "1200"),
		Entry("no-break space with decimals", "1\u00a0200,50", "1200.5"),
		Entry("narrow no-break space", "12\u202f345", "12345"),
	)

	It("rejects tokens without an integer part", func() {
		_, ok := parseNumber(",50")
		Expect(ok).To(BeFalse())
	})
})
