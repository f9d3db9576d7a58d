// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Category: award category and the nominee type it accepts
  - Nominator: the person submitting a nomination
  - Nominee: person or company identity (fields selected by Type)
  - Nomination: nominator + nominee + category with state and votes
  - Voter: email-identified public voter
  - UploadBatch, UploadError: CSV bulk upload provenance and row errors
  - OutboxEntry: pending sync record for HubSpot or Loops

# Request Types

  - NominationFormRequest: public multi-step form submission
  - UpdateNominationRequest: admin PATCH body
  - DecisionRequest: approve/reject body
  - CastVoteRequest: public vote

# Response Types

  - UploadResponse: success, batchId, summary, nextSteps
  - BatchReport: batch with its error rows
  - DirectoryEntry, VoteCount: public listings
  - Stats: admin aggregation
  - ErrorResponse: error, details

# Constants

Nomination states:

	StateDraft     = "draft"
	StateSubmitted = "submitted"
	StateApproved  = "approved"
	StateRejected  = "rejected"

Row error types:

	ErrorValidation      = "validation"
	ErrorMissingRequired = "missing_required"
	ErrorDuplicate       = "duplicate"
	ErrorProcessing      = "processing"

The public vote total of a nomination is Votes + AdditionalVotes.
*/
package models
